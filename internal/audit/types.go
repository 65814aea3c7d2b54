package audit

import "time"

// Event is one recorded action. Details carries small structured context
// (asset name, search query) and is stored as canonical JSON.
type Event struct {
	Action    string
	Actor     string
	TargetID  string
	Details   map[string]string
	Timestamp time.Time
}

const (
	ActionLogin       = "auth.login"
	ActionLoginFailed = "auth.login_failed"
	ActionLogout      = "auth.logout"
	ActionAssetCreate = "asset.create"
	ActionAssetUpdate = "asset.update"
	ActionAssetDelete = "asset.delete"
	ActionStoreReset  = "store.reset"
)
