package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `config`
	ConfigFileType = `yaml`
	ConfigDir      = `/.quill/`
	VaultFile      = `vault.json`
	LogFile        = `quill.log`
)
