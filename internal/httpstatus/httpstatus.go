// Package httpstatus holds the status codes and reason phrases the
// request pipeline can produce, shared by the response formatter and the
// CGI gateway's Status: translation.
package httpstatus

const (
	OK                    = 200
	MovedPermanently      = 301
	Found                 = 302
	BadRequest            = 400
	Forbidden             = 403
	NotFound              = 404
	URITooLong            = 414
	InternalServerError   = 500
	NotImplemented        = 501
	ServiceUnavailable    = 503
	VersionNotSupported   = 505
)

var reasonPhrases = map[int]string{
	OK:                  "OK",
	MovedPermanently:    "Moved Permanently",
	Found:               "Found",
	BadRequest:          "Bad Request",
	Forbidden:           "Forbidden",
	NotFound:            "Not Found",
	URITooLong:          "URI Too Long",
	InternalServerError: "Internal Server Error",
	NotImplemented:      "Not Implemented",
	ServiceUnavailable:  "Service Unavailable",
	VersionNotSupported: "HTTP Version Not Supported",
}

// ReasonPhrase returns the canonical reason phrase for code, or
// "Unknown Status Code" for anything not in the table above (this is the
// fallback used when translating a CGI script's Status: header).
func ReasonPhrase(code int) string {
	if phrase, ok := reasonPhrases[code]; ok {
		return phrase
	}
	return "Unknown Status Code"
}
