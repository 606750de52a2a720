package models

import "gorm.io/datatypes"

// HomeConfig is the singleton homepage configuration document. It is created
// lazily on first read; at most one row exists.
type HomeConfig struct {
	BaseModel
	MainText            string         `json:"mainText"`
	BannerTitle         string         `json:"bannerTitle"`
	Banner              string         `json:"banner"`
	LightBg             string         `json:"lightBg"`
	DarkBg              string         `json:"darkBg"`
	Sections            datatypes.JSON `json:"sections"`
	EventCalendarPDF    string         `json:"eventCalendarPdf"`
	EventCalendarBanner string         `json:"eventCalendarBanner"`
	LatestUpdates       datatypes.JSON `json:"latestUpdates"`
}

// DefaultMainText is applied when the singleton is first created.
const DefaultMainText = "Welcome to the Church Life"
