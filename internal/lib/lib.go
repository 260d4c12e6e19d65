// Package lib holds client libraries for external systems that do not belong
// to a single layer.
//
// postgrest talks to the Supabase REST gateway.
package lib
