package main

import (
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/kingpin/v2"

	"github.com/housepower/cohortcmp/cmd/migrate"
	"github.com/housepower/cohortcmp/cmd/password"
	"github.com/housepower/cohortcmp/cmd/render"
	"github.com/housepower/cohortcmp/cmd/token"
	"github.com/housepower/cohortcmp/log"
)

var (
	app = kingpin.New("cohortctl", heredoc.Doc(`
		Maintenance tool for cohortcmp.

		  cohortctl render attrition -P resultsTableQualifier=results -P executionId=3 -D postgresql
		  cohortctl dialects
		  cohortctl encrypt
		  cohortctl token -n analyst -u 17 -c /etc/cohortcmp/conf/cohortcmp.yaml
		  cohortctl migrate -c /etc/cohortcmp/conf/migrate.hjson
	`))

	renderCmd = app.Command("render", "render a sql template for a dialect")
	r_tmpl    = renderCmd.Arg("template", "bundled template name or file path").Required().String()
	r_params  = renderCmd.Flag("param", "name=value parameter, repeatable").Short('P').Strings()
	r_dialect = renderCmd.Flag("dialect", "target dialect").Short('D').Default("sql server").String()
	r_verbose = renderCmd.Flag("verbose", "print parameters to stderr").Short('v').Bool()

	dialectsCmd = app.Command("dialects", "list supported target dialects")

	passCmd  = app.Command("encrypt", "encrypt a password for sources and persistent_config")
	p_secret = passCmd.Flag("secret", "server secret_key, default when empty").Short('s').String()

	tokenCmd = app.Command("token", "issue an api token")
	t_conf   = tokenCmd.Flag("conf", "config file path").Short('c').String()
	t_name   = tokenCmd.Flag("name", "user name").Short('n').Required().String()
	t_user   = tokenCmd.Flag("user", "user id").Short('u').Default("0").Int()
	t_ip     = tokenCmd.Flag("ip", "bind the token to a client ip").String()
	t_ttl    = tokenCmd.Flag("ttl", "token lifetime, 0 for none").Default("24h").Duration()

	migrateCmd = app.Command("migrate", "migrate records from one persistence to another")
	m_conf     = migrateCmd.Flag("conf", "migrate config file path").Default("/etc/cohortcmp/conf/migrate.hjson").Short('c').String()
)

func main() {
	log.InitLoggerConsole()
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	switch strings.Split(command, " ")[0] {
	case "render":
		render.RenderHandle(render.RenderOpts{
			Template: *r_tmpl,
			Params:   *r_params,
			Dialect:  *r_dialect,
			Verbose:  *r_verbose,
		})
	case "dialects":
		render.DialectsHandle()
	case "encrypt":
		password.PasswordHandle(*p_secret)
	case "token":
		token.TokenHandle(token.TokenOpts{
			ConfigFile: *t_conf,
			Name:       *t_name,
			UserId:     *t_user,
			ClientIP:   *t_ip,
			TTL:        *t_ttl,
		})
	case "migrate":
		migrate.MigrateHandle(*m_conf)
	}
}
