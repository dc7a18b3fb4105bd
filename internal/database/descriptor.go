package database

import (
	"net"
	"net/url"
	"strconv"
)

// DefaultPort is the conventional MongoDB port, used when none is configured.
const DefaultPort = 27017

// DefaultAuthSource is the database used to validate credentials when none is configured.
const DefaultAuthSource = "admin"

// Descriptor holds everything needed to open an authenticated connection to a
// database. It is assembled per connection request and never persisted.
type Descriptor struct {
	Host       string
	Port       int
	Database   string
	Username   string
	Password   string
	AuthSource string
}

// URI renders the descriptor as
// mongodb://<user>:<password>@<host>:<port>/<dbname>?authSource=<authSource>.
// Credentials are percent-escaped.
func (d Descriptor) URI() string {
	return d.url().String()
}

// String returns the URI with the password redacted, safe for logs.
func (d Descriptor) String() string {
	return d.url().Redacted()
}

func (d Descriptor) url() *url.URL {
	port := d.Port
	if port <= 0 {
		port = DefaultPort
	}
	authSource := d.AuthSource
	if authSource == "" {
		authSource = DefaultAuthSource
	}

	return &url.URL{
		Scheme:   "mongodb",
		User:     url.UserPassword(d.Username, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(port)),
		Path:     "/" + d.Database,
		RawQuery: url.Values{"authSource": {authSource}}.Encode(),
	}
}
