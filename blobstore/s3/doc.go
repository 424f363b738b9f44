// Package s3 provides an Amazon S3 implementation of the
// blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("pools/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = snapshot.SaveTo(ctx, store, "strings.pool", pool)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large snapshots
//   - CRC32C integrity validation on uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
