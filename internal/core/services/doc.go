// Package services implements the driving ports.
//
//	Agent -> IntentExtractor -> Router -> CapabilityClient
//	                              \-> Planner -> Router (one level only)
package services
