// Package bulkbench benchmarks competing bulk-insertion strategies against PostgreSQL
package bulkbench
