// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Retriever: Asks the AI grounding service for listings
//   - RetrieverFactory: Creates retrievers from settings
//   - LeadStore: Session-scoped lead accumulation
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Geolocator: Without it, searches never carry a location.
//   - PromptStore: Without it, the built-in system instruction is used.
//   - SecretStore: Without it, API keys come from config or environment only.
//   - Clipboard: Without it, copy-to-clipboard is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
