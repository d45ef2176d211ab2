// Package s3 implements blobstore.BlobStore for Amazon S3 using ranged
// object reads.
package s3
