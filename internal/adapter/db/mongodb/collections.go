package mongodb

// Collection names used by the service.
const (
	CollectionUsers    = "users"
	CollectionCounters = "counters"
)

// userIndexCounter is the _id of the counter document backing user_index.
const userIndexCounter = "user_index"
