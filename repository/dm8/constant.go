package dm8

const (
	DM8PersistentName          string = "dm8"
	DM8_PORT_DEFAULT           int    = 5236
	DM8_USER_DEFAULT           string = "SYSDBA"
	DM8_PASSWD_DEFAULT         string = "SYSDBA"
	DM8_MAX_IDLE_CONNS_DEFAULT int    = 10
	DM8_MAX_OPEN_CONNS_DEFAULT int    = 100
	DM8_MAX_LIFETIME_DEFAULT   int    = 3600
	DM8_MAX_IDLE_TIME_DEFAULT  int    = 10
)
