// Package driven holds the ports the core calls out through. Adapters under
// internal/adapters/driven implement them; this package imports only domain.
//
// The retrieval path needs an EmbeddingService, a StoreRepository and a
// PostProcessorPipeline. ConfigStore backs the settings service.
//
// The rest are optional and may be nil:
//
//   - EmbeddingCache: skips the provider for text it has seen before
//   - NormaliserRegistry: strips markup before chunking
//   - LLMService: enables ask
//   - PromptStore: overrides the built-in ask prompts
package driven
