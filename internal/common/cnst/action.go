package cnst

// AppLabel prefixes every permission code, e.g. "core.confirm_zone".
const AppLabel = "core"

// Actions checked against an actor's permissions. Combined with a model
// name they form the permission code "<app>.<action>_<model>".
const (
	ActionView    = "view"
	ActionAdd     = "add"
	ActionChange  = "change"
	ActionDelete  = "delete"
	ActionConfirm = "confirm"
	ActionReopen  = "reopen"
	ActionCheck   = "check"
)
