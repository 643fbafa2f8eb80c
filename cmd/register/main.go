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

package main

import (
	"context"
	"flag"
	"fmt"

	"indexpool-go/internal/api"
	"indexpool-go/internal/common"
	"indexpool-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "Portfolio name to register (required)")
	callerFlag := flag.String("caller", "", "Account name or address registering the portfolio (required)")
	flag.Parse()

	if *nameFlag == "" || *callerFlag == "" {
		logger.Fatal("Both -name and -caller flags are required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	caller, err := services.Venues.Resolve(*callerFlag)
	if err != nil {
		logger.Fatal("Unknown caller", zap.Error(err))
	}

	service := api.NewPortfolioService(services.Registry, services.Venues)
	result, err := service.ProcessRegister(ctx, caller, *nameFlag)
	if err != nil {
		logger.Fatal("Registration failed", zap.Error(err))
	}
	if !result.Success {
		logger.Fatal("Registration rejected", zap.String("reason", result.Reason))
	}

	fmt.Printf("Registered %q for %s (id %s)\n", *nameFlag, caller.Hex(), result.RegistrationId)
}
