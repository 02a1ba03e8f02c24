package storage

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmptyHostName       = errors.New("host name is empty")
	ErrInvalidPortNumber   = errors.New("port number is invalid")
	ErrEmptyUsername       = errors.New("username is empty")
	ErrEmptyPassword       = errors.New("password is empty")
	ErrInvalidDatabaseName = errors.New("database name is empty")
	ErrInvalidSslMode      = errors.New("SSL mode is invalid")
	ErrInvalidPoolSize     = errors.New("pool size is invalid")
	ErrInvalidTimeout      = errors.New("timeout is invalid")
)

// Config параметры подключения к базе с исходной коллекцией
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	PoolSize int           // 0 оставляет значение pgxpool по умолчанию
	Timeout  time.Duration // таймаут установки соединения, 0 без ограничения
}

// Validate проверяет обязательные параметры
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return ErrEmptyHostName
	case c.Port <= 0 || c.Port > 65535:
		return ErrInvalidPortNumber
	case c.User == "":
		return ErrEmptyUsername
	case c.Password == "":
		return ErrEmptyPassword
	case c.DBName == "":
		return ErrInvalidDatabaseName
	case c.SSLMode == "":
		return ErrInvalidSslMode
	case c.Timeout < 0:
		return ErrInvalidTimeout
	case c.PoolSize < 0:
		return ErrInvalidPoolSize
	}
	return nil
}

// ConnString строка подключения в URL-форме; учетные данные экранируются
func (c Config) ConnString() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	if c.Timeout > 0 {
		// connect_timeout задается целыми секундами, доли округляются вверх
		seconds := int((c.Timeout + time.Second - 1) / time.Second)
		query.Set("connect_timeout", strconv.Itoa(seconds))
	}
	if c.PoolSize > 0 {
		query.Set("pool_max_conns", strconv.Itoa(c.PoolSize))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

// PoolConfig разбирает параметры в конфигурацию pgxpool
func (c Config) PoolConfig() (*pgxpool.Config, error) {
	connStr, err := c.ConnString()
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	return poolConfig, nil
}
