package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Storage drivers
const (
	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

// Delivery modes
const (
	// DeliveryModeMailbox enqueues the payload and sends an empty wake-up push
	DeliveryModeMailbox = "mailbox"
	// DeliveryModePayload sends the payload encrypted inside the push message
	DeliveryModePayload = "payload"
)

// Seen scopes
const (
	SeenScopeAlert  = "alert"
	SeenScopeRecord = "record"
)

// Push content encodings
const (
	ContentEncodingAES128GCM = "aes128gcm"
	ContentEncodingAESGCM    = "aesgcm"
)

// Storage key prefixes
const (
	SubscriberKeyPrefix = "sub:"
	MailboxKeyPrefix    = "notif:"
)

// DefaultAlertID names the implicit alert built from legacy record-level filters
const DefaultAlertID = "default"
