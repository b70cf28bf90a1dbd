package audithook

// Audit event actions. Each constant corresponds to one ext lifecycle hook
// and becomes the Action field of the audit event.
const (
	ActionWizardOpened     = "wizard.opened"
	ActionWizardResumed    = "wizard.resumed"
	ActionWizardClosed     = "wizard.closed"
	ActionStepAdvanced     = "wizard.step_advanced"
	ActionStepRetreated    = "wizard.step_retreated"
	ActionValidationFailed = "wizard.validation_failed"
	ActionSchemaFallback   = "schema.fallback"
	ActionCachePurged      = "cache.purged"
	ActionOrderSubmitted   = "order.submitted"
	ActionSubmissionFailed = "order.failed"
)

// Audit event categories group related actions.
const (
	CategoryWizard = "orderflow.wizard"
	CategorySchema = "orderflow.schema"
	CategoryCache  = "orderflow.cache"
	CategoryOrder  = "orderflow.order"
)

// Resource types used as the Resource field in audit events.
const (
	ResourceWizard  = "wizard"
	ResourceService = "service"
	ResourceCache   = "cache_entry"
)

// AllActions returns every action this extension can emit.
func AllActions() []string {
	return []string{
		ActionWizardOpened,
		ActionWizardResumed,
		ActionWizardClosed,
		ActionStepAdvanced,
		ActionStepRetreated,
		ActionValidationFailed,
		ActionSchemaFallback,
		ActionCachePurged,
		ActionOrderSubmitted,
		ActionSubmissionFailed,
	}
}
