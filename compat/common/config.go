package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bsthun/gut"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/package/erroring"
	"gopkg.in/yaml.v3"
)

const ConfigFile = "upgrader.yml"

// Environment holds settings that usually differ per machine rather than per project.
type Environment struct {
	TelemetryUrl          *string `env:"UPGRADER_TELEMETRY_URL"`
	TelemetryOrganization *string `env:"UPGRADER_TELEMETRY_ORGANIZATION"`
	BackupEndpoint        *string `env:"UPGRADER_BACKUP_ENDPOINT"`
	BackupAccessKey       *string `env:"UPGRADER_BACKUP_ACCESS_KEY"`
	BackupSecretKey       *string `env:"UPGRADER_BACKUP_SECRET_KEY"`
	BackupBucket          *string `env:"UPGRADER_BACKUP_BUCKET"`
	BackupSecure          *bool   `env:"UPGRADER_BACKUP_SECURE"`
}

func Default(root string) *upgrader.Config {
	return &upgrader.Config{
		Root:             gut.Ptr(root),
		Namespace:        gut.Ptr("alchemy"),
		ConfigDirectory:  gut.Ptr("config"),
		ViewDirectory:    gut.Ptr("app/views"),
		Generator:        gut.Ptr("alchemy:elements"),
		GeneratorCommand: nil,
		DryRun:           gut.Ptr(false),
		Verbose:          gut.Ptr(false),
		AppName:          gut.Ptr("upgrader"),
		AppVersion:       gut.Ptr(upgrader.Version),
		BackupSecure:     gut.Ptr(false),
	}
}

// Config resolves the configuration of one run. Later sources win:
// defaults, upgrader.yml in root, environment (with root/.env), overrides.
func Config(root string, overrides *upgrader.Config) (*upgrader.Config, error) {
	config := Default(root)

	// * project file
	path := filepath.Join(root, ConfigFile)
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		file := new(upgrader.Config)
		if err := yaml.Unmarshal(Template(content), file); err != nil {
			return nil, &erroring.ConfigReadError{Path: path, Err: err}
		}
		Merge(config, file)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, &erroring.ConfigReadError{Path: path, Err: err}
	}

	// * environment
	_ = godotenv.Load(filepath.Join(root, ".env"))
	environment := new(Environment)
	if err := env.Parse(environment); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	Merge(config, &upgrader.Config{
		TelemetryUrl:          environment.TelemetryUrl,
		TelemetryOrganization: environment.TelemetryOrganization,
		BackupEndpoint:        environment.BackupEndpoint,
		BackupAccessKey:       environment.BackupAccessKey,
		BackupSecretKey:       environment.BackupSecretKey,
		BackupBucket:          environment.BackupBucket,
		BackupSecure:          environment.BackupSecure,
	})

	if overrides != nil {
		Merge(config, overrides)
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Merge copies every field set in source onto target.
func Merge(target *upgrader.Config, source *upgrader.Config) {
	override(&target.Root, source.Root)
	override(&target.Namespace, source.Namespace)
	override(&target.ConfigDirectory, source.ConfigDirectory)
	override(&target.ViewDirectory, source.ViewDirectory)
	override(&target.Generator, source.Generator)
	if len(source.GeneratorCommand) > 0 {
		target.GeneratorCommand = source.GeneratorCommand
	}
	override(&target.DryRun, source.DryRun)
	override(&target.Verbose, source.Verbose)
	override(&target.AppName, source.AppName)
	override(&target.AppVersion, source.AppVersion)
	override(&target.TelemetryUrl, source.TelemetryUrl)
	override(&target.TelemetryOrganization, source.TelemetryOrganization)
	override(&target.BackupEndpoint, source.BackupEndpoint)
	override(&target.BackupAccessKey, source.BackupAccessKey)
	override(&target.BackupSecretKey, source.BackupSecretKey)
	override(&target.BackupBucket, source.BackupBucket)
	override(&target.BackupSecure, source.BackupSecure)
}

func override[T any](target **T, value *T) {
	if value != nil {
		*target = value
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(config *upgrader.Config) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
