// Package common holds helpers shared by the MCP tool packages: account
// selection and the instrumented handler wrapper.
package common
