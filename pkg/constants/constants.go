package constants

const (
	CHANNEL_SIZE         = 100 // outbound queue size per websocket connection
	REDIS_TIMEOUT        = 5   // settings cache TTL (minutes)
	CACHE_WORKER_NUM     = 8   // async cache workers
	CACHE_TASK_CHAN_SIZE = 1000
	DEFAULT_AVATAR_ID    = 1
	MIN_CORRECT_ANSWERS  = 2 // registration verification threshold
	QUESTIONS_PER_FORM   = 3
)

// Setting keys read by the realtime core and written by the admin surface.
const (
	SettingDailyTopic               = "daily_topic"
	SettingFilterWords              = "filter_words"
	SettingRules                    = "rules"
	SettingAbout                    = "about"
	SettingGroupMessageDeleteTime   = "group_message_delete_time"
	SettingGroupMessageDeleteUnit   = "group_message_delete_unit"
	SettingPrivateMessageDeleteTime = "private_message_delete_time"
	SettingPrivateMessageDeleteUnit = "private_message_delete_unit"
)

// Realtime event names, both directions.
const (
	EventAuthenticate        = "authenticate"
	EventAuthenticated       = "authenticated"
	EventJoinFaculty         = "join_faculty"
	EventLeaveFaculty        = "leave_faculty"
	EventLoadMessages        = "load_messages"
	EventSendGroupMessage    = "send_group_message"
	EventNewGroupMessage     = "new_group_message"
	EventSendPrivateMessage  = "send_private_message"
	EventNewPrivateMessage   = "new_private_message"
	EventLoadPrivateMessages = "load_private_messages"
	EventBlockUser           = "block_user"
	EventUserBlocked         = "user_blocked"
	EventReportUser          = "report_user"
	EventUserReported        = "user_reported"
	EventError               = "error"
)

// User-facing realtime messages.
const (
	MsgUserNotFound    = "İstifadəçi tapılmadı"
	MsgSomethingWrong  = "Xəta baş verdi"
	MsgMessageNotSent  = "Mesaj göndərilə bilmədi"
	MsgAlreadySignedIn = "Bu bağlantı artıq başqa istifadəçiyə bağlıdır"
)
