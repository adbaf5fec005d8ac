package hooks

func handleStop(client *Client, input *HookInput) {
	if _, err := client.Post("/api/v1/lifecycle/stop", nil); err != nil {
		ExitError(err)
		return
	}
}
