// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package petition implements the signing pipeline.

A submission goes through these steps, stopping at the first failure:

 1. validate the decoded request
 2. hash the client token again with the server salt
 3. reject identifiers that already signed
 4. in one transaction: consume the phone code (phone only), enforce the
    per-IP daily cap, insert the signature
 5. return the new total and a display token

Failures are reported with the sentinel errors in this package and leave no
partial write. A code consumed in step 4 is restored if a later part of the
same transaction fails.

Phone numbers are hashed the same way on both paths: RequestCode normalizes
the raw number and computes the hash the browser would send, then the final
server hash. Submit receives the browser hash and applies the server hash.
*/
package petition
