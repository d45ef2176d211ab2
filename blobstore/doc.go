// Package blobstore abstracts where dictionary snapshot files live: local
// disk (memory-mapped), process memory for tests, or S3-compatible object
// storage via the minio and s3 subpackages.
package blobstore
