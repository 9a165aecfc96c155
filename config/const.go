package config

import "strings"

// AppVersion is the version of the application. Set at build time.
var AppVersion string

// AppName is the name of the application.
const AppName = "Gaze"

// ServiceName is the identifier used for app IDs and config paths.
const ServiceName = AppName

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// ModelSubDir is the sub directory (under the config dir) holding
// detection model files, e.g. the pigo facefinder cascade.
const ModelSubDir = "models"
