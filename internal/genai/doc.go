// Package genai is the storefront's generative-content collaborator.
//
// Client exposes the four calls the storefront makes: creative-studio chat,
// image generation, product descriptions, and support-bot replies. None of
// them return errors. A missing credential or a failed request is converted
// to a fixed, clearly marked fallback string (or no image) so callers never
// need retry or error handling around them.
//
// Gemini implements Client against the Generative Language REST API.
// Offline is a Client that always answers with the missing-key fallbacks.
package genai
