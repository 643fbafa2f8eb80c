/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"indexpool-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// defaultMaxDeposit is 100 native units at 18 decimals
const defaultMaxDeposit = "100000000000000000000"

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	registryAddress, err := getEnvAddress("REGISTRY_ADDRESS", "0x00000000000000000000000000000000001d9001")
	if err != nil {
		return nil, err
	}

	admin, err := getEnvAddress("ADMIN_ADDRESS", "0x000000000000000000000000000000000000ad01")
	if err != nil {
		return nil, err
	}

	maxDeposit, err := getEnvDecimal("MAX_DEPOSIT", defaultMaxDeposit)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "indexpool.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Registry: models.RegistryConfig{
			Address:    registryAddress,
			Admin:      admin,
			MaxDeposit: maxDeposit,
			VenuesFile: getEnvString("VENUES_FILE", "venues.yaml"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAddress(key, defaultValue string) (common.Address, error) {
	value := getEnvString(key, defaultValue)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address for %s: %q", key, value)
	}
	return common.HexToAddress(value), nil
}

// getEnvDecimal reads an integer amount in base units
func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value := getEnvString(key, defaultValue)
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount for %s: %q (%w)", key, value, err)
	}
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("invalid amount for %s: %q must be a non-negative integer", key, value)
	}
	return amount, nil
}
