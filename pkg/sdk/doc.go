// Package triagebot provides a Go client for the triagebot HTTP API.
//
//	client := triagebot.New("http://localhost:8080", triagebot.WithAPIKey("secret"))
//	resp, _ := client.Ask(ctx, "what is INC0010023", triagebot.ModeGeneral)
//	fmt.Println(resp.Answer)
package triagebot
