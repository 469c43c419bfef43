package models

// ModelRegistry lists every model that participates in gorm auto-migration.
var ModelRegistry = []interface{}{
	&WaitlistEntry{},
}
