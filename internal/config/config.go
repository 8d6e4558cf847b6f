package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName       = "bday"
	AppDirName    = "go-bday"
	LogFileName   = "app.log"
	DataFileName  = "birthdays.toml"
	SettingsFile  = "config.yaml"
	EnvPrefix     = "BDAY_"
	EnvConfigPath = "BDAY_CONFIG"
	ICalProdid    = "-//Go Bday//Export//EN"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
	ExitCodeData    = 3
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the data file and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------.
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion       = "version"
	FlagDebug         = "debug"
	FlagFile          = "file"
	FlagLang          = "lang"
	FlagName          = "name"
	FlagDate          = "date"
	FlagTimezone      = "timezone"
	FlagClearTimezone = "clear-timezone"
	FlagBefore        = "before"
	FlagLimit         = "limit"
	FlagNow           = "now"
	FlagIDs           = "ids"
	FlagOutput        = "output"
	FlagPlain         = "plain"
	FlagOut           = "out"
	FlagRemind        = "remind"

	FlagDescVersion       = "Show application version and exit"
	FlagDescDebug         = "Enable debug logging to stderr"
	FlagDescFile          = "Path of the birthdays data file"
	FlagDescLang          = "Language used for output (en, fr)"
	FlagDescName          = "The name associated with the entry"
	FlagDescDate          = "The date of birth (YYYY-MM-DD, or --MM-DD when the year is unknown)"
	FlagDescTimezone      = "Optional IANA timezone for the entry (e.g. Asia/Tokyo)"
	FlagDescClearTimezone = "Remove the timezone of the entry"
	FlagDescBefore        = "Display only birthdays occurring on or before this date"
	FlagDescLimit         = "Display only the closest n entries"
	FlagDescNow           = "Compute relative to this instant instead of the current time"
	FlagDescIDs           = "Show the identifier of each entry"
	FlagDescOutput        = "Output format: table, json or yaml"
	FlagDescPlain         = "Disable colours and styling"
	FlagDescOut           = "Write the calendar to this file instead of stdout"
	FlagDescRemind        = "Add a reminder to each event (ISO8601 duration, e.g. -P1D)"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// Output formats accepted by the list command.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultLanguage   = "en"
	DefaultLogLevel   = "info"
	DefaultDateFormat = "02 January"
	DefaultLeapYear   = 2000 // Leap year used to validate year-less dates like --02-29
	UIDSalt           = "go-bday-v1-"
	IDPrefixMinLength = 4
	ShortIDLength     = 8
)

// SupportedLanguages defines the list of available output languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted for birth dates (CLI input, data file, vCard BDAY)
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatNoYearS   = "01-02"

	// Layouts accepted by --now
	InstantFormatLocal = "2006-01-02T15:04:05"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	ICalDomain      = "gobday"

	// Display
	AgeUnknown    = "-"
	AgeTransition = "%d → %d"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 24 * time.Hour

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardTZ   = "TZ"
)

// StubVCalendar is the minimal valid iCalendar object written when there is no event.
const StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyColName       = "col_name"
	TKeyColDate       = "col_date"
	TKeyColAge        = "col_age"
	TKeyColIn         = "col_in"
	TKeyColID         = "col_id"
	TKeyToday         = "rel_today"
	TKeyRelFuture     = "rel_future_label"
	TKeyRelPast       = "rel_past_label"
	TKeyRelNow        = "rel_now"
	TKeyRelMinute     = "rel_minute"
	TKeyRelMinutes    = "rel_minutes"
	TKeyRelHour       = "rel_hour"
	TKeyRelHours      = "rel_hours"
	TKeyRelDay        = "rel_day"
	TKeyRelDays       = "rel_days"
	TKeyRelWeek       = "rel_week"
	TKeyRelWeeks      = "rel_weeks"
	TKeyRelMonth      = "rel_month"
	TKeyRelMonths     = "rel_months"
	TKeyRelYear       = "rel_year"
	TKeyEvtSummary    = "event_summary"       // Requires Name
	TKeyEvtSummaryAge = "event_summary_age"   // Requires Name, Age
	TKeyEvtBirth      = "event_summary_birth" // Requires Name (For age 0)
	TKeyNoEntries     = "msg_no_entries"
	TKeyAdded         = "msg_added"   // Requires Name, Date
	TKeyUpdated       = "msg_updated" // Requires Name
	TKeyRemoved       = "msg_removed" // Requires Name
	TKeyImported      = "msg_imported"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrMsgEmptyName       = "name must not be empty"
	ErrMsgInvalidDate     = "invalid calendar date"
	ErrMsgInvalidTimezone = "unknown timezone"
	ErrMsgInvalidArgument = "invalid argument"
	ErrMsgInvalidRange    = "cutoff is earlier than the reference instant"
	ErrMsgNotFound        = "no entry matches"
	ErrMsgAmbiguous       = "several entries match"
	ErrMsgUsage           = "usage error"
	ErrMsgInvalidReminder = "invalid reminder duration"
	ErrMsgUnknownFormat   = "unknown output format"

	ErrReadStore     = "failed to read data file"
	ErrParseStore    = "failed to parse data file"
	ErrWriteStore    = "failed to write data file"
	ErrInvalidRecord = "invalid record in data file"
	ErrVCardParse    = "failed to parse vCard stream"
	ErrICalEncode    = "failed to encode iCalendar data"
	ErrLoadSettings  = "failed to load settings"
	ErrLogFile       = "failed to open log file"
	ErrCacheDir      = "could not determine user cache dir"
	ErrConfigDir     = "could not determine user config dir"
	ErrCreateDir     = "could not create app directory"
	ErrAppFailed     = "command failed"
	ErrLocalesAccess = "failed to access embedded locales"
	ErrLocaleLoad    = "failed to load locale file"
	ErrRender        = "failed to render output"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackName = "Unknown"

	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Command completed"
	MsgStoreLoaded   = "Data file loaded"
	MsgStoreMissing  = "Data file not found, starting empty"
	MsgStoreSaved    = "Data file saved"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedTZ     = "Ignoring non-IANA vCard timezone"
	MsgSkippedDup    = "Skipping duplicate entry"
	MsgImportDone    = "vCard import finished"
	MsgExportDone    = "Calendar export finished"
	MsgListed        = "Entries listed"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgSettings      = "Settings resolved"
	MsgBdayToday     = "Birthday today"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyID        = "id"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyCommand   = "command"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyAdded     = "added"
	LogKeyEvents    = "events"
	LogKeyToday     = "today"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompCLI     = "cli"
	CompStore   = "store"
	CompInterop = "interop"
	CompI18n    = "i18n"
	CompConfig  = "config"
)
