// Package types defines the JSON wire types of the chat endpoint.
//
// Request:
//
//	{"message": "Hi", "newChat": false, "userName": "Al", "userProblem": "billing"}
//
// Responses:
//
//	{"response": "Hello Al", "specialMessage": null}
//	{"response": "Chat reset"}
//	{"error": "Both OpenAI and Gemini failed: ..."}
package types
