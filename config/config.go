package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Storage backend selectors
const (
	BackendJSON     = "jsondb"
	BackendPostgres = "postgres"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	DataDir  string `yaml:"data_dir" json:"data_dir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	UploadDir string `yaml:"upload_dir" json:"upload_dir"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// FeaturedConfig caps the curated featured lists per list type
type FeaturedConfig struct {
	MaxProducts   int `yaml:"max_products" json:"max_products"`
	MaxCategories int `yaml:"max_categories" json:"max_categories"`
	MaxMarkas     int `yaml:"max_markas" json:"max_markas"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DBConfig       `yaml:"database" json:"database"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
	Featured FeaturedConfig `yaml:"featured" json:"featured"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ProlineCatalog",
		Location: "Asia/Baku",
		Workdir:  "/var/proline",
		DataDir:  "/var/proline/data",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-proline-1816-catalog-secret",
		UploadDir: "/var/proline/uploads",
	},
	Database: DBConfig{
		Type:     BackendJSON,
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "proline",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/proline/proline.log",
	},
	Featured: FeaturedConfig{
		MaxProducts:   8,
		MaxCategories: 6,
		MaxMarkas:     6,
	},
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	if c.System.DataDir != "" {
		return c.System.DataDir
	}
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetUploadDir() string {
	if c.Web.UploadDir != "" {
		return c.Web.UploadDir
	}
	return filepath.Join(c.System.Workdir, "uploads")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
	_ = os.MkdirAll(c.GetUploadDir(), 0o755)
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		if ival, err := strconv.Atoi(evalue); err == nil {
			*val = ival
		}
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// overrides. A missing file falls back to defaults so the service can run
// from environment variables alone.
func LoadConfig(cfile string) *AppConfig {
	// .env is optional
	_ = godotenv.Load()

	defaults := *DefaultAppConfig
	cfg := &defaults
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "parse config %s error: %v\n", cfile, err)
				cfg = &defaults
			}
		}
	}

	setEnvValue("PROLINE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("PROLINE_SYSTEM_DATADIR", &cfg.System.DataDir)
	setEnvBoolValue("PROLINE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("PROLINE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("PROLINE_WEB_PORT", &cfg.Web.Port)
	setEnvValue("PROLINE_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("PROLINE_WEB_UPLOAD_DIR", &cfg.Web.UploadDir)

	setEnvValue("PROLINE_DB_TYPE", &cfg.Database.Type)
	setEnvValue("PROLINE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("PROLINE_DB_PORT", &cfg.Database.Port)
	setEnvValue("PROLINE_DB_NAME", &cfg.Database.Name)
	setEnvValue("PROLINE_DB_USER", &cfg.Database.User)
	setEnvValue("PROLINE_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("PROLINE_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("PROLINE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("PROLINE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("PROLINE_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvIntValue("PROLINE_FEATURED_MAX_PRODUCTS", &cfg.Featured.MaxProducts)
	setEnvIntValue("PROLINE_FEATURED_MAX_CATEGORIES", &cfg.Featured.MaxCategories)
	setEnvIntValue("PROLINE_FEATURED_MAX_MARKAS", &cfg.Featured.MaxMarkas)

	if cfg.Featured.MaxProducts <= 0 {
		cfg.Featured.MaxProducts = 8
	}
	if cfg.Featured.MaxCategories <= 0 {
		cfg.Featured.MaxCategories = 6
	}
	if cfg.Featured.MaxMarkas <= 0 {
		cfg.Featured.MaxMarkas = 6
	}

	cfg.initDirs()
	return cfg
}
