// Package service has S3 access, source reading and record export built on
// adaptors.
package service

import "github.com/m-mizutani/brainfeed/internal"

var logger = internal.Logger
