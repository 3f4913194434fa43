package config

import "time"

// Base application details
const AppName = "textcore"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "textcore.log"

// Editor defaults
const DefaultTabSize = 4
const DefaultPageSize = 25
const DefaultScrollOff = 3
const DefaultMaxUndo = 1000
const SystemClipboard = false

// Buffer defaults
const DefaultStore = "block"
const DefaultBlockSize = 256

// Syntax defaults
const DefaultTheme = "dark"
const DefaultCacheSize = 100
const DefaultMaxFileSize = 1 << 20
const DefaultDebounce = 65 * time.Millisecond

// Core defaults
const DefaultMaxEditors = 100
