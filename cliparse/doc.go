// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

An optional .env file in the working directory is loaded before flags and
environment variables are read.

# CLI Flags and Environment Variables

	-p              PORT                (default: 3000)
	-d              DATABASE_URL        (required)
	-t              DATABASE_TYPE       postgres | sqlite (default: postgres)
	--server-salt   SERVER_SALT         (required)
	--admin-token   ADMIN_TOKEN         (required)
	--rate-limit    RATE_LIMIT_BACKEND  sql | redis (default: sql)
	--sms           SMS_MODE            demo | nats (default: demo)
	--store-timeout STORE_TIMEOUT       (default: 5s)
	                PUBLIC_SALT         (default: the browser client's salt)
	                REDIS_URL           required for RATE_LIMIT_BACKEND=redis
	                NATS_URL            required for SMS_MODE=nats
	                LOG_LEVEL, LOG_FORMAT

CLI flags take precedence over environment variables.

# Demo Mode

With SMS_MODE=demo the verification code is returned in the
POST /votes/verify-phone response. This stands in for SMS delivery and must
not be used in production.
*/
package cliparse
