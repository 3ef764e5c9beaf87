package cloudapps

// Alert status values.
const (
	AlertStatusUnread   = 0
	AlertStatusRead     = 1
	AlertStatusArchived = 2
)

// Alert severity values.
const (
	AlertSeverityLow           = 0
	AlertSeverityMedium        = 1
	AlertSeverityHigh          = 2
	AlertSeverityInformational = 3
)

// Alert resolution status values.
const (
	ResolutionOpen          = 0
	ResolutionDismissed     = 1
	ResolutionBenign        = 2
	ResolutionTruePositive  = 3
	ResolutionFalsePositive = 4
	ResolutionResolved      = 5
)

// File type values.
const (
	FileTypeDocument     = "Document"
	FileTypeSpreadsheet  = "Spreadsheet"
	FileTypePresentation = "Presentation"
	FileTypeText         = "Text"
	FileTypeImage        = "Image"
	FileTypeFolder       = "Folder"
	FileTypeOther        = "Other"
)

// File sharing levels.
const (
	SharingPublicInternet = "Public (Internet)"
	SharingPublic         = "Public"
	SharingExternal       = "External"
	SharingInternal       = "Internal"
	SharingPrivate        = "Private"
)

// Entity types.
const (
	EntityTypeUser   = "user"
	EntityTypeDevice = "device"
)

// Entity risk levels.
const (
	RiskLevelLow    = 0
	RiskLevelMedium = 1
	RiskLevelHigh   = 2
)

// ActivityUser identifies the account that performed an activity.
type ActivityUser struct {
	Username string `json:"username"`
	Domain   string `json:"domain"`
}

// ActivityLocation is the resolved geolocation of an activity's source IP.
type ActivityLocation struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// Activity is one cloud-app event: a login, download, share, admin action.
type Activity struct {
	ID              string           `json:"_id"`
	Timestamp       int64            `json:"timestamp"`
	AppID           int              `json:"appId"`
	AppName         string           `json:"appName"`
	EventActionType string           `json:"eventActionType"`
	Description     string           `json:"description"`
	User            ActivityUser     `json:"user"`
	Location        ActivityLocation `json:"location"`
	IPAddress       string           `json:"ipAddress"`
	DeviceType      string           `json:"deviceType"`
}

// Alert is an immediate risk raised by a detection policy.
type Alert struct {
	ID                    string `json:"_id"`
	Timestamp             int64  `json:"timestamp"`
	Title                 string `json:"title"`
	Description           string `json:"description"`
	StatusValue           int    `json:"statusValue"`
	SeverityValue         int    `json:"severityValue"`
	ResolutionStatusValue int    `json:"resolutionStatusValue"`
	IsOpen                bool   `json:"isOpen"`
	AlertType             string `json:"alertType"`
	URL                   string `json:"URL"`
}

// File is cloud-app file or folder metadata.
type File struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	FileType     string `json:"fileType"`
	Extension    string `json:"extension"`
	MimeType     string `json:"mimeType"`
	Sharing      string `json:"sharing"`
	OwnerName    string `json:"ownerName"`
	AppID        int    `json:"appId"`
	CreatedDate  int64  `json:"createdDate"`
	ModifiedDate int64  `json:"modifiedDate"`
	IsFolder     bool   `json:"isFolder"`
	Trashed      bool   `json:"trashed"`
	Quarantined  bool   `json:"quarantined"`
	URL          string `json:"url"`
}

// RiskFactor explains one contribution to an entity's risk score.
type RiskFactor struct {
	Factor      string `json:"factor"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// Entity is a user or device with its risk posture.
type Entity struct {
	ID          string       `json:"_id"`
	Type        string       `json:"type"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Domain      string       `json:"domain"`
	DeviceName  string       `json:"deviceName"`
	IsExternal  bool         `json:"isExternal"`
	IsAdmin     bool         `json:"isAdmin"`
	RiskScore   int          `json:"riskScore"`
	FirstSeen   int64        `json:"firstSeen"`
	LastSeen    int64        `json:"lastSeen"`
	Tags        []string     `json:"tags"`
	RiskFactors []RiskFactor `json:"riskFactors"`
}

// Stream is a continuous report: an automatic log upload from a discovery
// data source.
type Stream struct {
	ID                    string `json:"_id"`
	DisplayName           string `json:"displayName"`
	LogType               int    `json:"logType"`
	StreamType            int    `json:"streamType"`
	ReceiverType          string `json:"receiverType"`
	Created               int64  `json:"created"`
	LastModified          int64  `json:"lastModified"`
	LastDataReceived      int64  `json:"lastDataReceived"`
	SupportedTrafficTypes []int  `json:"supportedTrafficTypes"`
	GlobalAggregated      bool   `json:"globalAggregated"`
}

// DiscoveredApp is a cloud app observed in discovery traffic. Sanctioned
// is a pointer because older streams omit the field; a missing value must
// not read as "unsanctioned".
type DiscoveredApp struct {
	AppID        int    `json:"appId"`
	Name         string `json:"appName"`
	Category     string `json:"category"`
	RiskScore    int    `json:"riskScore"`
	AppTag       string `json:"appTag"`
	Sanctioned   *bool  `json:"isSanctioned"`
	Users        int    `json:"users"`
	Transactions int64  `json:"transactions"`
	TrafficBytes int64  `json:"trafficTotalBytes"`
	LastUsed     int64  `json:"lastUsed"`
}

// AppCategory counts the discovered apps in one category of a stream.
type AppCategory struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

// Subnet maps an IP range to organizational context for discovery
// enrichment.
type Subnet struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	OriginalRange string   `json:"originalRange"`
	Organization  string   `json:"organization"`
	Location      string   `json:"location"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	CreatedAt     int64    `json:"createdAt"`
	ModifiedAt    int64    `json:"modifiedAt"`
}

// SubnetSpec describes a subnet to create. Name and OriginalRange are
// required by the API; the rest is optional context.
type SubnetSpec struct {
	Name          string   `json:"name"`
	OriginalRange string   `json:"originalRange"`
	Organization  string   `json:"organization,omitempty"`
	Location      string   `json:"location,omitempty"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// SubnetUpdate carries the fields to change on an existing subnet. Nil
// fields are left untouched.
type SubnetUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Organization *string  `json:"organization,omitempty"`
	Location     *string  `json:"location,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}
