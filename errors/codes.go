package errors

// ErrorCode identifies an application error in API responses
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 1

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 2002
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2003
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 2004

	// Scripts and projects
	ErrorCode_PROJECT_NOT_FOUND       ErrorCode = 3000
	ErrorCode_PROJECT_ACCESS_DENIED   ErrorCode = 3001
	ErrorCode_SCENE_NOT_FOUND         ErrorCode = 3003
	ErrorCode_CHARACTER_NOT_FOUND     ErrorCode = 3004
	ErrorCode_SCRIPT_PARSE_FAILED     ErrorCode = 3005
	ErrorCode_SHARE_NOT_FOUND         ErrorCode = 3006
	ErrorCode_LOCAL_PROJECT_NOT_FOUND ErrorCode = 3007
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                "UNSPECIFIED",
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_USER_NOT_FOUND:        "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN: "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:          "AUTH_OAUTH_FAILED",
	ErrorCode_PROJECT_NOT_FOUND:          "PROJECT_NOT_FOUND",
	ErrorCode_PROJECT_ACCESS_DENIED:      "PROJECT_ACCESS_DENIED",
	ErrorCode_SCENE_NOT_FOUND:            "SCENE_NOT_FOUND",
	ErrorCode_CHARACTER_NOT_FOUND:        "CHARACTER_NOT_FOUND",
	ErrorCode_SCRIPT_PARSE_FAILED:        "SCRIPT_PARSE_FAILED",
	ErrorCode_SHARE_NOT_FOUND:            "SHARE_NOT_FOUND",
	ErrorCode_LOCAL_PROJECT_NOT_FOUND:    "LOCAL_PROJECT_NOT_FOUND",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
