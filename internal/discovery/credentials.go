package discovery

import "strings"

const (
	schemeSeparatorConstant   = "://"
	userInfoSeparatorConstant = "@"
	passwordSeparatorConstant = ":"
	pathSeparatorConstant     = "/"
	// SchemeHTTPS is the clone URL scheme used unless plain HTTP is requested.
	SchemeHTTPS = "https"
	// SchemeHTTP is the clone URL scheme used when plain HTTP is requested.
	SchemeHTTP = "http"
)

// Credentials is the userinfo embedded in a clone URL.
type Credentials struct {
	Username string
	Password string
}

// Empty reports whether no credential is present.
func (credentials Credentials) Empty() bool {
	return len(credentials.Username) == 0 && len(credentials.Password) == 0
}

// InjectCredentials rebuilds cloneURL as <scheme>://<authLabel>:<accessToken>@<host-and-path>.
// The URL's own scheme is kept and defaultScheme is used when it has none. Existing userinfo
// is replaced rather than prefixed.
func InjectCredentials(cloneURL string, authLabel string, accessToken string, defaultScheme string) string {
	scheme, hostAndPath := splitScheme(strings.TrimSpace(cloneURL))
	if len(scheme) == 0 {
		scheme = defaultScheme
	}
	if len(scheme) == 0 {
		scheme = SchemeHTTPS
	}
	_, hostAndPath = splitUserInfo(hostAndPath)

	var builder strings.Builder
	builder.WriteString(scheme)
	builder.WriteString(schemeSeparatorConstant)
	builder.WriteString(authLabel)
	builder.WriteString(passwordSeparatorConstant)
	builder.WriteString(accessToken)
	builder.WriteString(userInfoSeparatorConstant)
	builder.WriteString(hostAndPath)
	return builder.String()
}

// StripCredentials removes userinfo from cloneURL and returns it separately.
func StripCredentials(cloneURL string) (string, Credentials) {
	scheme, hostAndPath := splitScheme(strings.TrimSpace(cloneURL))
	userInfo, hostAndPath := splitUserInfo(hostAndPath)

	credentials := Credentials{}
	if len(userInfo) > 0 {
		username, password, _ := strings.Cut(userInfo, passwordSeparatorConstant)
		credentials = Credentials{Username: username, Password: password}
	}

	if len(scheme) == 0 {
		return hostAndPath, credentials
	}
	return scheme + schemeSeparatorConstant + hostAndPath, credentials
}

// HostAndPath returns cloneURL without scheme and userinfo.
func HostAndPath(cloneURL string) string {
	_, hostAndPath := splitScheme(strings.TrimSpace(cloneURL))
	_, hostAndPath = splitUserInfo(hostAndPath)
	return hostAndPath
}

func splitScheme(rawURL string) (string, string) {
	scheme, remainder, found := strings.Cut(rawURL, schemeSeparatorConstant)
	if !found {
		return "", rawURL
	}
	return scheme, remainder
}

func splitUserInfo(hostAndPath string) (string, string) {
	authority := hostAndPath
	if pathIndex := strings.Index(hostAndPath, pathSeparatorConstant); pathIndex >= 0 {
		authority = hostAndPath[:pathIndex]
	}
	userInfoEnd := strings.LastIndex(authority, userInfoSeparatorConstant)
	if userInfoEnd < 0 {
		return "", hostAndPath
	}
	return hostAndPath[:userInfoEnd], hostAndPath[userInfoEnd+1:]
}
