// Package dynamo implements a dictionary source backed by a DynamoDB table,
// loading requested keys with concurrent BatchGetItem pages.
package dynamo
