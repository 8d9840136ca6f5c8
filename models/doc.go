// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - VerifyPhoneRequest: phoneNumber
  - SubmitVoteRequest: type, identifier, verificationCode, county, comment

Request structs carry validate tags checked by middleware.DecodeAndValidate.

# Response Types

Every response has a success flag:

  - CountResponse: count, target, percentage
  - CountiesResponse: counties sorted by count
  - VerifyPhoneResponse: message, expiresAt (code in demo mode only)
  - SubmitVoteResponse: totalVotes, verificationToken
  - RecentVotesResponse: admin listing without identifiers
  - ErrorResponse: success=false, error, message

# Domain Types

  - Signature: one accepted signature
  - CountyCount: aggregate per county

Fields tagged json:"-" (hashed identifier, IP hash) never leave the server.
*/
package models
