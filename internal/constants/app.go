package constants

import "strconv"

const AppVersion = "1.0.0"

// Environment Types
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Cache Keys
const (
	CacheKeyContacts      = "AddressBookContacts"
	CacheKeyContactPrefix = "Contact_"
)

// ContactCacheKey returns the cache key of a single contact.
func ContactCacheKey(id uint) string {
	return CacheKeyContactPrefix + strconv.FormatUint(uint64(id), 10)
}

// Notification queues
const (
	QueueUserRegistered = "user_registered"
	QueueContactAdded   = "contact_added"
)

// Module names used to tag log context
const (
	ModuleHandler    = "handler"
	ModuleService    = "service"
	ModuleRepository = "repository"
	ModuleWorker     = "worker"
)
