package tools

// ReadOnlyAnnotations describes a tool that only queries a remote service:
// safe to repeat, touches nothing locally, reaches the open world.
func ReadOnlyAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    true,
		"destructiveHint": false,
		"idempotentHint":  true,
		"openWorldHint":   true,
	}
}
