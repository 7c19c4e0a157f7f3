// Package types provides shared data structures for the Gridline backend.
//
// This package defines core types used across all backend components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Parameter: Tool parameter schema
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - DiscoverRequest: Service discovery by intent
//
// Example Usage:
//
//	svc := types.Service{
//	    ID:       "imgproc",
//	    Name:     "Image Processing Service",
//	    Category: types.CategoryCompute,
//	    Tools:    tools,
//	}
package types
