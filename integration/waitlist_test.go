package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/danuarta/waitlist-api/config"
	"github.com/danuarta/waitlist-api/config/router"
	"github.com/danuarta/waitlist-api/domain"
	"github.com/danuarta/waitlist-api/internal/log"
	"github.com/danuarta/waitlist-api/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiEnvelope struct {
	Content    json.RawMessage    `json:"content"`
	Message    string             `json:"message"`
	Errors     []fieldError       `json:"errors"`
	Pagination *router.Pagination `json:"pagination"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type entryPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	logger    *log.Logger
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Every connection to an in-memory sqlite database gets its own empty
	// database, so the pool must stay at a single connection. This also
	// serializes the concurrent count+data queries of the listing.
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	err = suite.db.AutoMigrate(&models.WaitlistEntry{})
	suite.Require().NoError(err)

	suite.logger = log.NewLoggerWithJSONOutput()

	suite.appConfig = &config.ApplicationConfig{
		DB:     suite.db,
		Logger: suite.logger,
	}

	suite.appConfig.RouterService = router.CreateRouterService(suite.logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist_entries")
}

func (suite *WaitlistAPITestSuite) postJSON(client *http.Client, path string, body interface{}) (*http.Response, apiEnvelope) {
	jsonBody, err := json.Marshal(body)
	suite.Require().NoError(err)

	resp, err := client.Post(suite.baseURL+path, "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var envelope apiEnvelope
	err = json.NewDecoder(resp.Body).Decode(&envelope)
	suite.Require().NoError(err)

	return resp, envelope
}

func (suite *WaitlistAPITestSuite) getJSON(client *http.Client, path string) (*http.Response, apiEnvelope) {
	resp, err := client.Get(suite.baseURL + path)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var envelope apiEnvelope
	err = json.NewDecoder(resp.Body).Decode(&envelope)
	suite.Require().NoError(err)

	return resp, envelope
}

// adminClient logs in with the default admin credential and returns a client
// carrying the admin session cookie.
func (suite *WaitlistAPITestSuite) adminClient() *http.Client {
	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)

	client := &http.Client{Jar: jar}

	resp, envelope := suite.postJSON(client, "/api/login", map[string]string{
		"email":    "admin@test.com",
		"password": "admin123",
	})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Require().Contains(envelope.Message, "Login successful")

	return client
}

func (suite *WaitlistAPITestSuite) seedEntries(count int) {
	base := time.Now().Add(-time.Duration(count) * time.Minute)

	for i := 0; i < count; i++ {
		entry := models.WaitlistEntry{
			Name:      fmt.Sprintf("Member %02d", i),
			Email:     fmt.Sprintf("member%02d@example.com", i),
			Phone:     fmt.Sprintf("+4455566%04d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		suite.Require().NoError(suite.db.Create(&entry).Error)
	}
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, envelope := suite.getJSON(http.DefaultClient, "/health")

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(envelope.Message, "health check completed")

	var status map[string]interface{}
	suite.Require().NoError(json.Unmarshal(envelope.Content, &status))

	suite.Equal(float64(1), status["database"])
	suite.Contains(status, "uptime")
}

func (suite *WaitlistAPITestSuite) TestCreateWaitlistEntry() {
	resp, envelope := suite.postJSON(http.DefaultClient, "/api/waitlist", map[string]string{
		"name":  "Jane Doe",
		"email": "jane.doe@example.com",
		"phone": "+12025550147",
	})

	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.Contains(envelope.Message, "added to the waitlist")
	suite.Empty(envelope.Errors)

	var entry entryPayload
	suite.Require().NoError(json.Unmarshal(envelope.Content, &entry))

	suite.NotEmpty(entry.ID)
	suite.NotEmpty(entry.CreatedAt)
	suite.Equal("Jane Doe", entry.Name)
	suite.Equal("jane.doe@example.com", entry.Email)
	suite.Equal("+12025550147", entry.Phone)

	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *WaitlistAPITestSuite) TestCreateWaitlistEntryTrimsWhitespace() {
	resp, envelope := suite.postJSON(http.DefaultClient, "/api/waitlist", map[string]string{
		"name":  "  Jane Doe  ",
		"email": " jane.doe@example.com ",
		"phone": " +12025550147 ",
	})

	suite.Equal(http.StatusCreated, resp.StatusCode)

	var entry entryPayload
	suite.Require().NoError(json.Unmarshal(envelope.Content, &entry))
	suite.Equal("Jane Doe", entry.Name)

	var stored models.WaitlistEntry
	suite.Require().NoError(suite.db.First(&stored).Error)
	suite.Equal("jane.doe@example.com", stored.Email)
	suite.Equal("+12025550147", stored.Phone)
}

func (suite *WaitlistAPITestSuite) TestCreateWaitlistEntryValidationErrors() {
	resp, envelope := suite.postJSON(http.DefaultClient, "/api/waitlist", map[string]string{
		"name":  "   ",
		"email": "not-an-email",
		"phone": "123",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Contains(envelope.Message, "Failed to add you to the waitlist")

	fields := make(map[string]string, len(envelope.Errors))
	for _, fieldErr := range envelope.Errors {
		fields[fieldErr.Field] = fieldErr.Message
	}

	suite.Len(fields, 3, "every invalid field must be reported in one response")
	suite.Contains(fields, "name")
	suite.Contains(fields, "email")
	suite.Contains(fields, "phone")

	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Count(&count)
	suite.Equal(int64(0), count, "invalid submissions must not reach storage")
}

func (suite *WaitlistAPITestSuite) TestCreateWaitlistEntryDuplicateEmail() {
	suite.seedEntries(1)

	resp, envelope := suite.postJSON(http.DefaultClient, "/api/waitlist", map[string]string{
		"name":  "Other Person",
		"email": "member00@example.com",
		"phone": "+19998887766",
	})

	suite.Equal(http.StatusConflict, resp.StatusCode)
	suite.Contains(envelope.Message, "already in the waitlist")

	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *WaitlistAPITestSuite) TestCreateWaitlistEntryDuplicatePhone() {
	suite.seedEntries(1)

	resp, envelope := suite.postJSON(http.DefaultClient, "/api/waitlist", map[string]string{
		"name":  "Other Person",
		"email": "other@example.com",
		"phone": "+44555660000",
	})

	suite.Equal(http.StatusConflict, resp.StatusCode)
	suite.Contains(envelope.Message, "already in the waitlist")
}

func (suite *WaitlistAPITestSuite) TestAdminListingRequiresSession() {
	resp, envelope := suite.getJSON(http.DefaultClient, "/api/admin/waitlist")

	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	suite.Contains(envelope.Message, "Admin session required")
}

func (suite *WaitlistAPITestSuite) TestAdminListingPagination() {
	suite.seedEntries(15)
	client := suite.adminClient()

	resp, envelope := suite.getJSON(client, "/api/admin/waitlist")
	suite.Equal(http.StatusOK, resp.StatusCode)

	var pageOne []entryPayload
	suite.Require().NoError(json.Unmarshal(envelope.Content, &pageOne))

	suite.Len(pageOne, 10)
	suite.Require().NotNil(envelope.Pagination)
	suite.Equal(1, envelope.Pagination.Page)
	suite.Equal(10, envelope.Pagination.Limit)
	suite.Equal(int64(15), envelope.Pagination.TotalData)
	suite.Equal(2, envelope.Pagination.TotalPage)

	// The seed creates entries in ascending created_at order, so the most
	// recent signup opens the first page.
	suite.Equal("member14@example.com", pageOne[0].Email)

	resp, envelope = suite.getJSON(client, "/api/admin/waitlist?page=2")
	suite.Equal(http.StatusOK, resp.StatusCode)

	var pageTwo []entryPayload
	suite.Require().NoError(json.Unmarshal(envelope.Content, &pageTwo))

	suite.Len(pageTwo, 5)
	suite.Equal(2, envelope.Pagination.Page)
	suite.Equal("member04@example.com", pageTwo[0].Email)
	suite.Equal("member00@example.com", pageTwo[4].Email)
}

func (suite *WaitlistAPITestSuite) TestAdminListingSearch() {
	suite.seedEntries(12)
	client := suite.adminClient()

	resp, envelope := suite.getJSON(client, "/api/admin/waitlist?search=MEMBER01")
	suite.Equal(http.StatusOK, resp.StatusCode)

	var matches []entryPayload
	suite.Require().NoError(json.Unmarshal(envelope.Content, &matches))

	suite.Len(matches, 1, "matching is case-insensitive")
	suite.Equal("member01@example.com", matches[0].Email)
	suite.Equal(int64(1), envelope.Pagination.TotalData)

	resp, envelope = suite.getJSON(client, "/api/admin/waitlist?search=ember+1")
	suite.Equal(http.StatusOK, resp.StatusCode)

	suite.Require().NoError(json.Unmarshal(envelope.Content, &matches))
	suite.Len(matches, 2, "a name fragment matches Member 10 and Member 11")
	suite.Equal(int64(2), envelope.Pagination.TotalData)

	resp, envelope = suite.getJSON(client, "/api/admin/waitlist?search=nomatch")
	suite.Equal(http.StatusOK, resp.StatusCode)

	suite.Require().NoError(json.Unmarshal(envelope.Content, &matches))
	suite.Len(matches, 0)
	suite.Equal(int64(0), envelope.Pagination.TotalData)
}

func (suite *WaitlistAPITestSuite) TestAdminListingExportAll() {
	suite.seedEntries(15)
	client := suite.adminClient()

	resp, envelope := suite.getJSON(client, "/api/admin/waitlist?all=true")
	suite.Equal(http.StatusOK, resp.StatusCode)

	var entries []entryPayload
	suite.Require().NoError(json.Unmarshal(envelope.Content, &entries))

	suite.Len(entries, 15)
	suite.Require().NotNil(envelope.Pagination)
	suite.Equal(int64(15), envelope.Pagination.TotalData)
	suite.Equal(1, envelope.Pagination.TotalPage)
}

func (suite *WaitlistAPITestSuite) TestAdminListingInvalidPage() {
	client := suite.adminClient()

	resp, envelope := suite.getJSON(client, "/api/admin/waitlist?page=abc")

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Contains(envelope.Message, "Invalid page parameter")
}

func (suite *WaitlistAPITestSuite) TestAdminLogoutEndsSession() {
	client := suite.adminClient()

	resp, _ := suite.getJSON(client, "/api/admin/logout")
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = suite.getJSON(client, "/api/admin/waitlist")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestWaitlistAPISuite(t *testing.T) {
	// Skip integration tests unless explicitly requested
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}
