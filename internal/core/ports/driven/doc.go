// Package driven holds the interfaces core services call out through.
//
// The agent cannot run without an LLMService, the CapabilityClients, a
// CredentialProvider, a ConfigStore and a PromptStore. ActivityStore and
// ChatPoster are optional; a nil ActivityStore simply means no history.
//
// Only the domain package may be imported from here.
package driven
