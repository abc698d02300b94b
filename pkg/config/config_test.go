package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  name: nature-hug-api
  host: 0.0.0.0
  port: 8080
mysql:
  host: db.internal
  port: 3306
  username: shop
  password: secret
  database: naturehug
kafka:
  brokers:
    - broker-1:9092
  topic_prefix: naturehug
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nature-hug-api", cfg.Server.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"broker-1:9092"}, cfg.Kafka.Brokers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := MySQLConfig{
		Host:     "db.internal",
		Port:     3306,
		Username: "shop",
		Password: "secret",
		Database: "naturehug",
	}
	assert.Equal(t,
		"shop:secret@tcp(db.internal:3306)/naturehug?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DSN())
}

func TestKafkaTopicPrefix(t *testing.T) {
	withPrefix := KafkaConfig{TopicPrefix: "naturehug"}
	assert.Equal(t, "naturehug.order.created", withPrefix.Topic("order.created"))

	bare := KafkaConfig{}
	assert.Equal(t, "order.created", bare.Topic("order.created"))
}
