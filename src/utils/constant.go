package utils

import "time"

// -----------------------------------------------------------------------------

// exchangeBySuffix maps a Yahoo-style ticker suffix to an ISO 10383 MIC.
// Tickers without a known suffix trade on NYSE/Nasdaq hours.
var exchangeBySuffix = map[string]string{
	".NS": "xnse",
	".BO": "xbom",
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

const defaultMIC = "xnys"

// session is a plain weekday trading window used when the calendar library
// has no entry for an exchange.
type session struct {
	zone        string
	open, close time.Duration // offsets from local midnight
}

var fallbackSessions = map[string]session{
	"xnys": {zone: "America/New_York", open: 9*time.Hour + 30*time.Minute, close: 16 * time.Hour},
	"xnse": {zone: "Asia/Kolkata", open: 9*time.Hour + 15*time.Minute, close: 15*time.Hour + 30*time.Minute},
	"xbom": {zone: "Asia/Kolkata", open: 9*time.Hour + 15*time.Minute, close: 15*time.Hour + 30*time.Minute},
}
