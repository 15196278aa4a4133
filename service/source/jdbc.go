package source

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/housepower/cohortcmp/sqlrender"
	"github.com/pkg/errors"
)

// ToDSN converts the JDBC url stored on a source into a DSN the go driver of
// the dialect understands. Strings that are not JDBC urls are returned as
// they are.
func ToDSN(dialect, conn string) (string, error) {
	conn = strings.TrimSpace(conn)
	if !strings.HasPrefix(strings.ToLower(conn), "jdbc:") {
		return conn, nil
	}
	conn = conn[len("jdbc:"):]
	switch sqlrender.NormalizeDialect(dialect) {
	case sqlrender.DialectPostgreSQL, sqlrender.DialectRedshift:
		return postgresDSN(conn)
	case sqlrender.DialectMySQL:
		return mysqlDSN(conn)
	case sqlrender.DialectSqlServer, sqlrender.DialectPdw:
		return sqlserverDSN(conn)
	}
	return "", errors.Errorf("no driver for dialect %q", dialect)
}

// postgresql://host:5432/db?user=u&password=p&ssl=true
func postgresDSN(conn string) (string, error) {
	u, err := url.Parse(conn)
	if err != nil {
		return "", errors.Wrap(err, "parse jdbc url")
	}
	if u.Scheme != "postgresql" && u.Scheme != "redshift" {
		return "", errors.Errorf("unexpected jdbc scheme %q", u.Scheme)
	}
	query := u.Query()
	user, password := query.Get("user"), query.Get("password")
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			password = p
		}
	}

	params := url.Values{}
	params.Set("sslmode", "disable")
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "ssl":
			if values[0] == "true" {
				params.Set("sslmode", "require")
			}
		case "sslmode", "connect_timeout", "application_name":
			params.Set(key, values[0])
		case "currentSchema":
			params.Set("search_path", values[0])
		}
	}

	host := u.Host
	if u.Port() == "" {
		port := "5432"
		if u.Scheme == "redshift" {
			port = "5439"
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}
	dsn := url.URL{
		Scheme:   "postgres",
		Host:     host,
		Path:     u.Path,
		RawQuery: params.Encode(),
	}
	if user != "" {
		dsn.User = url.UserPassword(user, password)
	}
	return dsn.String(), nil
}

// mysql://host:3306/db?user=u&password=p
func mysqlDSN(conn string) (string, error) {
	u, err := url.Parse(conn)
	if err != nil {
		return "", errors.Wrap(err, "parse jdbc url")
	}
	query := u.Query()
	user, password := query.Get("user"), query.Get("password")
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "3306")
	}
	return fmt.Sprintf("%s:%s@tcp(%s)%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, u.Path), nil
}

// sqlserver://host:1433;databaseName=cdm;user=u;password=p
func sqlserverDSN(conn string) (string, error) {
	if !strings.HasPrefix(conn, "sqlserver://") {
		return "", errors.Errorf("unexpected jdbc url %q", strings.SplitN(conn, ";", 2)[0])
	}
	parts := strings.Split(strings.TrimPrefix(conn, "sqlserver://"), ";")
	host := parts[0]
	params := url.Values{}
	var user, password string
	for _, part := range parts[1:] {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "databasename", "database":
			params.Set("database", kv[1])
		case "user", "username":
			user = kv[1]
		case "password":
			password = kv[1]
		case "encrypt":
			params.Set("encrypt", kv[1])
		case "trustservercertificate":
			params.Set("TrustServerCertificate", kv[1])
		}
	}
	// an instance name follows a backslash in the host part
	path := ""
	if i := strings.Index(host, "\\"); i >= 0 {
		host, path = host[:i], host[i+1:]
	}
	dsn := url.URL{
		Scheme:   "sqlserver",
		Host:     host,
		Path:     path,
		RawQuery: params.Encode(),
	}
	if user != "" {
		dsn.User = url.UserPassword(user, password)
	}
	return dsn.String(), nil
}
