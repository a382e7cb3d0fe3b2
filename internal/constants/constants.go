package constants

// Centralized constants for env keys, routes and API responses.
const (
	// Environment variable keys
	EnvAddr             = "ZAWOMONS_ADDR"
	EnvCatalog          = "ZAWOMONS_CATALOG"
	EnvDB               = "ZAWOMONS_DB"
	EnvCommitHold       = "ZAWOMONS_COMMIT_HOLD"
	EnvSelectionTimeout = "ZAWOMONS_SELECTION_TIMEOUT"
	EnvRemoteLatency    = "ZAWOMONS_REMOTE_LATENCY"
	EnvMaxPartySize     = "ZAWOMONS_MAX_PARTY_SIZE"
	EnvFinishedTTL      = "ZAWOMONS_FINISHED_TTL"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteHealthz       = "/healthz"
	RouteVersion       = "/version"
	RouteCombatants    = "/combatants"
	RouteSpells        = "/spells"
	RouteBattles       = "/battles"
	RouteBattleByID    = "/battles/:battleID"
	RouteBattleMoves   = "/battles/:battleID/moves"
	RoutePartyCommit   = "/battles/:battleID/parties/:party/commit"
	RoutePartyHold     = "/battles/:battleID/parties/:party/hold"
	RoutePartyRelease  = "/battles/:battleID/parties/:party/release"
	RouteBattleRematch = "/battles/:battleID/rematch"
	RouteBattleWS      = "/battles/:battleID/ws"
)

// Route parameter names
const (
	ParamBattleID = "battleID"
	ParamParty    = "party"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyCode    = "code"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
	JSONKeyFired   = "fired"
	JSONKeyHeldMS  = "held_ms"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrInvalidBattleID        = "Invalid battle ID"
	ErrInvalidParty           = "Invalid party"
	ErrBattleNotFound         = "Battle not found"
	ErrFailedFetchCombatants  = "Failed to fetch combatants"
	ErrFailedFetchSpells      = "Failed to fetch spells"
	ErrFailedCreateBattle     = "Failed to create battle"
	ErrUnknownCombatantFmt    = "unknown combatant: %s"
	ErrRosterSizeFmt          = "each party needs between 1 and %d combatants"
	ErrFailedUpgradeWebsocket = "Failed to upgrade websocket"
)

// Logging field names
const (
	LogFieldBattleID    = "battle_id"
	LogFieldParty       = "party"
	LogFieldParticipant = "participant"
	LogFieldSpell       = "spell"
	LogFieldTarget      = "target"
	LogFieldTurn        = "turn"
	LogFieldWinner      = "winner"
	LogFieldPhase       = "phase"
	LogFieldEvent       = "event"
	LogFieldSource      = "source"
	LogFieldName        = "name"
	LogFieldKey         = "key"
	LogFieldAddr        = "addr"
	LogFieldCount       = "count"
)
