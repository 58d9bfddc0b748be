package config

import "time"

// Base application details
const AppName = "stylo"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "stylo.log"

// Document model
const DefaultRootTag = "div"
const DefaultParagraph = "div"

// ZeroWidthSpace is the marker character an empty paragraph may start with.
const ZeroWidthSpace = '\u200B'

// DefaultTextParagraphs are the tags that may legally hold typed text.
var DefaultTextParagraphs = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"div", "p", "span", "code", "blockquote",
	"ul", "ol", "dl", "pre",
}

// History
const DefaultUndoLimit = 0 // unbounded

// UI
const StatusBarHeight = 1
const MessageTimeout = 4 * time.Second
const SystemClipboard = true
