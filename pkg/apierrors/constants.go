package apierrors

const (
	MsgInvalidTaskID         = "invalidTaskID"
	MsgInvalidTaskPayload    = "invalidTaskPayload"
	MsgTaskNotFound          = "taskNotFound"
	MsgFailGetTask           = "failGetTask"
	MsgFailUpdateTask        = "failUpdateTask"
	MsgFieldNotFound         = "fieldNotFound"
	MsgInvalidCustomField    = "invalidCustomFieldValue"
	MsgUnknownUser           = "unknownUser"
	MsgUnauthorized          = "unauthorized"
	MsgPermissionDenied      = "permissionDenied"
	MsgInvalidDependency     = "invalidDependencyPayload"
	MsgSelfDependency        = "selfDependency"
	MsgDependencyExists      = "dependencyExists"
	MsgDependencyCycle       = "dependencyCycle"
	MsgDependencyNotFound    = "dependencyNotFound"
	MsgFailDependency        = "failDependency"
	MsgInvalidCommentPayload = "invalidCommentPayload"
	MsgFailCreateComment     = "failCreateComment"
	MsgFailListComments      = "failListComments"
	MsgFailListNotifications = "failListNotifications"
	MsgFailMarkRead          = "failMarkNotificationsRead"
	MsgInvalidSubscription   = "invalidSubscriptionPayload"
	MsgFailSaveSubscription  = "failSaveSubscription"
	MsgPushNotConfigured     = "pushNotConfigured"
	MsgServiceUnavailable    = "serviceUnavailable"
)
