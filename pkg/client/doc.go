// Package client calls the clearance authority.
//
// A Client wraps one session credential and a Transport. Each Call checks
// the session has not expired, builds the envelope for the named operation,
// validates its structure, sends it, checks and parses the reply and writes
// an audit entry:
//
//	cfg, _ := config.Load("clearance.yaml")
//	c, err := client.FromConfig(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	resp, err := c.Call(ctx, "CheckStatus", value.FromMap(
//	    value.NewMap().SetText("f4indexno", "S0123/0001/2023")))
//	if err != nil {
//	    return err
//	}
//	if err := client.CheckStatus("CheckStatus", resp); err != nil {
//	    // the authority answered with a non-success code
//	}
//
// CheckStatuses runs CheckStatus for a list of candidates, one exchange at
// a time.
package client
