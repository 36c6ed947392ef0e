package controller

// Event reasons recorded on custom resources.
const (
	EventReasonProvisioned        = "Provisioned"
	EventReasonDriftCorrected     = "DriftCorrected"
	EventReasonProvisioningFailed = "ProvisioningFailed"
	EventReasonRetrying           = "Retrying"
	EventReasonRecovered          = "Recovered"
	EventReasonPruned             = "Pruned"
	EventReasonDeleted            = "Deleted"
	EventReasonDeleteFailed       = "DeleteFailed"
	EventReasonGarbageCollected   = "GarbageCollected"
)
