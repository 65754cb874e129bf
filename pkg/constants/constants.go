package constants

type ContextKey string

const (
	PoolKey   ContextKey = "pool"
	TxKey     ContextKey = "tx"
	AppKey    ContextKey = "app"
	LoggerKey ContextKey = "logger"
	ActorKey  ContextKey = "actor"
	ParamsKey ContextKey = "params"
)
