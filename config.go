package upgrader

type Config struct {
	Root             *string  `yaml:"-" validate:"required,min=1"`
	Namespace        *string  `yaml:"namespace" validate:"required,min=1,excludesall=/\\"`
	ConfigDirectory  *string  `yaml:"config_directory" validate:"required,min=1"`
	ViewDirectory    *string  `yaml:"view_directory" validate:"required,min=1"`
	Generator        *string  `yaml:"generator" validate:"required,min=1"`
	GeneratorCommand []string `yaml:"generator_command"`
	DryRun           *bool    `yaml:"-" validate:"required"`
	Verbose          *bool    `yaml:"-" validate:"required"`

	AppName               *string `yaml:"app_name"`
	AppVersion            *string `yaml:"-"`
	TelemetryUrl          *string `yaml:"telemetry_url"`
	TelemetryOrganization *string `yaml:"telemetry_organization"`

	BackupEndpoint  *string `yaml:"backup_endpoint"`
	BackupAccessKey *string `yaml:"-"`
	BackupSecretKey *string `yaml:"-"`
	BackupBucket    *string `yaml:"backup_bucket" validate:"required_with=BackupEndpoint"`
	BackupSecure    *bool   `yaml:"backup_secure"`
}
