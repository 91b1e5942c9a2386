package config

import (
	"os"
	"strings"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr   string `default:"" env:"APP_HOST"`
		Port         int    `default:"8080"  env:"APP_PORT"`
		ProgramName  string `default:"Sabbatical Program" env:"APP_PROGRAM_NAME"`
		BaseURL      string `default:"http://localhost:8080" env:"APP_BASE_URL"`
		Organization string `default:"FirstLine Schools" env:"APP_ORGANIZATION"`
		BodyLimit    int64  `default:"1048576" env:"APP_BODY_LIMIT"`
		ErrNotifyURL string `default:"" env:"APP_ERR_NOTIFY_URL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"sabbatical" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int64  `default:"28800" env:"JWT_EXPIRE_IN_SEC"`
		AllowedDomain  string `default:"" env:"AUTH_ALLOWED_DOMAIN"`
		DevMode        *bool  `default:"false" env:"DEV_MODE"`
		DevUserEmail   string `default:"dev@example.org" env:"DEV_USER_EMAIL"`
	}
	Roles struct {
		Talent string `default:"" env:"ROLES_TALENT"`
		HR     string `default:"" env:"ROLES_HR"`
		CEO    string `default:"" env:"ROLES_CEO"`
		Admin  string `default:"" env:"ROLES_ADMIN"`
	}
	Approvers struct {
		TalentEmail string `default:"" env:"APPROVER_TALENT_EMAIL"`
		TalentName  string `default:"Talent Team" env:"APPROVER_TALENT_NAME"`
		HREmail     string `default:"" env:"APPROVER_HR_EMAIL"`
		HRName      string `default:"HR Team" env:"APPROVER_HR_NAME"`
	}
	Policy struct {
		EligibilityYears       int `default:"10" env:"POLICY_ELIGIBILITY_YEARS"`
		ConflictBlockThreshold int `default:"2" env:"POLICY_CONFLICT_BLOCK_THRESHOLD"`
	}
	Workflow struct {
		ManagerChainDepth int `default:"1" env:"WORKFLOW_MANAGER_CHAIN_DEPTH"`
	}
	Directory struct {
		Table                 string `default:"staff_members" env:"DIRECTORY_TABLE"`
		CacheTTLSec           int    `default:"300" env:"DIRECTORY_CACHE_TTL_SEC"`
		RosterFile            string `default:"" env:"DIRECTORY_ROSTER_FILE"`
		RosterSyncIntervalSec int    `default:"0" env:"DIRECTORY_ROSTER_SYNC_INTERVAL_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"" env:"SMTP_FROM"`
	}
	Notification struct {
		Enabled    *bool  `default:"true" env:"NOTIFICATION_ENABLED"`
		TalentTeam string `default:"" env:"NOTIFICATION_TALENT_TEAM"`
		HRTeam     string `default:"" env:"NOTIFICATION_HR_TEAM"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"sabbatical-letters" env:"S3_BUCKET_NAME"`
	}
}

// RoleMembership is the configured email lists per role.
type RoleMembership struct {
	Talent []string
	HR     []string
	CEO    []string
	Admin  []string
}

func (c *Configuration) RoleMembership() RoleMembership {
	return RoleMembership{
		Talent: SplitList(c.Roles.Talent),
		HR:     SplitList(c.Roles.HR),
		CEO:    SplitList(c.Roles.CEO),
		Admin:  SplitList(c.Roles.Admin),
	}
}

// SplitList splits a comma separated setting into trimmed lower case values.
func SplitList(value string) []string {
	result := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("failed to read .env file")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
