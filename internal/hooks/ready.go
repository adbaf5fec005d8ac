package hooks

func handleReady(client *Client, input *HookInput) {
	// Until this lands, the guard stays inactive and every prompt passes
	// through untouched, so a down server is not an error worth noise.
	if _, err := client.Post("/api/v1/lifecycle/ready", nil); err != nil {
		ExitError(err)
		return
	}
}
