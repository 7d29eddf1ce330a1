package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	errLoadAWSConfig           = "failed to load AWS config: %w"
	errGetSecretFromAWSSecrets = "failed to get secret from AWS Secrets Manager: %w"
	errParseSecretJSON         = "failed to parse secret JSON: %w"
	errParseSecretBinary       = "failed to parse secret binary: %w"
)

// ErrNoSecretData is returned when the secret carries neither a string nor binary payload
var ErrNoSecretData = errors.New("no secret data found in AWS Secrets Manager")

// SecretsOverlay represents the structure of secrets stored in AWS Secrets Manager
type SecretsOverlay struct {
	LLMAPIKey        string `json:"llm_api_key"`
	BookmakerUser    string `json:"bookmaker_username"`
	BookmakerPass    string `json:"bookmaker_password"`
	DatabasePassword string `json:"database_password"`
	TelegramToken    string `json:"telegram_bot_token"`
	TelegramChatID   string `json:"telegram_chat_id"`
	FixturesAPIKey   string `json:"fixtures_api_key"`
}

// fetchSecretsFromAWS retrieves secrets from AWS Secrets Manager
func fetchSecretsFromAWS(ctx context.Context, region string, secretName string) (*SecretsOverlay, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf(errLoadAWSConfig, err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	}

	result, err := client.GetSecretValue(ctx, input)
	if err != nil {
		return nil, fmt.Errorf(errGetSecretFromAWSSecrets, err)
	}

	return parseSecretData(result)
}

// parseSecretData parses secret data from AWS response
func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*SecretsOverlay, error) {
	var secrets SecretsOverlay
	switch {
	case result.SecretString != nil:
		if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretJSON, err)
		}
	case result.SecretBinary != nil:
		if err := json.Unmarshal(result.SecretBinary, &secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretBinary, err)
		}
	default:
		return nil, ErrNoSecretData
	}
	return &secrets, nil
}

// overlaySecretsOnConfig applies secrets to configuration
func overlaySecretsOnConfig(cfg *Config, secrets *SecretsOverlay) {
	if secrets.LLMAPIKey != "" {
		cfg.LLM.APIKey = secrets.LLMAPIKey
	}
	if secrets.BookmakerUser != "" {
		cfg.Scraper.Username = secrets.BookmakerUser
	}
	if secrets.BookmakerPass != "" {
		cfg.Scraper.Password = secrets.BookmakerPass
	}
	if secrets.DatabasePassword != "" {
		cfg.Database.Password = secrets.DatabasePassword
	}
	if secrets.TelegramToken != "" {
		cfg.Notify.Telegram.BotToken = secrets.TelegramToken
	}
	if secrets.TelegramChatID != "" {
		if id, err := strconv.ParseInt(secrets.TelegramChatID, 10, 64); err == nil {
			cfg.Notify.Telegram.ChatID = id
		}
	}
	if secrets.FixturesAPIKey != "" {
		cfg.Fixtures.APIKey = secrets.FixturesAPIKey
	}
}

// LoadSecretsFromAWS retrieves secrets from AWS Secrets Manager and overlays them onto the configuration
func LoadSecretsFromAWS(cfg *Config, region string, secretName string) error {
	secrets, err := fetchSecretsFromAWS(context.Background(), region, secretName)
	if err != nil {
		return err
	}

	overlaySecretsOnConfig(cfg, secrets)
	return nil
}
