// Package certcheck inspects the TLS certificate served for a base URL so
// the health endpoint can surface upcoming expirations.
package certcheck

import (
	"crypto/tls"
	"net"
	"net/url"
	"strings"
	"time"
)

// Info summarizes the leaf certificate for a host.
type Info struct {
	Host     string
	NotAfter time.Time
	DaysLeft int
	IsValid  bool
	Err      string
}

// Check dials the host behind baseURL and reports its leaf certificate
// state. Non-https URLs and dial failures return IsValid=false with Err
// set; the caller treats the result as informational only.
func Check(baseURL string) Info {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return Info{Err: "unparseable base URL"}
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return Info{Host: u.Host, Err: "not an https URL"}
	}

	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "443")
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	conn, err := tls.DialWithDialer(dialer, "tcp", host, nil)
	if err != nil {
		return Info{Host: host, Err: err.Error()}
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return Info{Host: host, Err: "no peer certificates"}
	}

	leaf := certs[0]
	now := time.Now()
	return Info{
		Host:     host,
		NotAfter: leaf.NotAfter,
		DaysLeft: int(leaf.NotAfter.Sub(now).Hours() / 24),
		IsValid:  now.After(leaf.NotBefore) && now.Before(leaf.NotAfter),
	}
}
