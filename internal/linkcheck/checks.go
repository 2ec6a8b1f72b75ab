package linkcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize caps validation response bodies at 8 MiB.
const maxResponseSize = 8 << 20

func (v *Validator) checkGeneric(ctx context.Context, item Item) Result {
	resp, failure := v.fetch(ctx, item)
	if failure != nil {
		return *failure
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return newResult(item.Ticket, true, "Active", "URL is accessible (200 OK)")
	}
	return httpStatusResult(item.Ticket, resp.StatusCode)
}

func (v *Validator) checkCoverage(ctx context.Context, item Item) Result {
	body, failure := v.fetchJSON(ctx, item)
	if failure != nil {
		return *failure
	}

	if containsError(body) {
		return newResult(item.Ticket, false, "failure from coverage API", "Error found in API response")
	}

	statusParts := []string{"success calling coverage API"}

	mridMissing := false
	for _, coverage := range asList(body["coverages"]) {
		ident, ok := asMap(coverage)["businessIdentifier"].(map[string]any)
		if !ok {
			mridMissing = true
			break
		}
		if _, ok := ident["masterRecordID"]; !ok {
			mridMissing = true
			break
		}
	}
	if mridMissing {
		statusParts = append(statusParts, "mrid missing")
	} else {
		statusParts = append(statusParts, "mrid present")
	}

	activeCoverage := false
	today := v.now()
	for _, coverage := range asList(body["coverages"]) {
		period, ok := asMap(coverage)["coveragePeriod"].(map[string]any)
		if !ok {
			continue
		}
		start, err1 := parseDay(period["start"])
		end, err2 := parseDay(period["end"])
		if err1 != nil || err2 != nil {
			continue
		}
		if !today.Before(start) && !today.After(end.Add(24*time.Hour-time.Nanosecond)) {
			activeCoverage = true
			break
		}
	}
	if activeCoverage {
		statusParts = append(statusParts, "active coverage present")
	} else {
		statusParts = append(statusParts, "active coverage missing")
	}

	return newResult(item.Ticket,
		!mridMissing && activeCoverage,
		strings.Join(statusParts, " | "),
		"Coverage validation completed")
}

func (v *Validator) checkMember(ctx context.Context, item Item) Result {
	body, failure := v.fetchJSON(ctx, item)
	if failure != nil {
		return *failure
	}

	if containsError(body) {
		return newResult(item.Ticket, false, "failure from member API", "Error found in API response")
	}

	statusParts := []string{"success calling member API"}

	mridMissing := false
	for _, member := range asList(body["members"]) {
		mrid, ok := asMap(member)["masterRecordID"]
		if !ok || mrid == "" || mrid == nil {
			mridMissing = true
			break
		}
	}
	if mridMissing {
		statusParts = append(statusParts, "mrid missing")
	} else {
		statusParts = append(statusParts, "mrid present")
	}

	return newResult(item.Ticket,
		!mridMissing,
		strings.Join(statusParts, " | "),
		"Member validation completed")
}

func (v *Validator) checkAccums(ctx context.Context, item Item) Result {
	body, failure := v.fetchJSON(ctx, item)
	if failure != nil {
		return *failure
	}

	if outcome, ok := body["operationOutcome"].(map[string]any); ok {
		for _, issue := range asList(outcome["issue"]) {
			for _, detail := range asList(asMap(issue)["details"]) {
				text, ok := asMap(detail)["text"]
				if !ok {
					continue
				}
				if strings.Contains(strings.ToLower(fmt.Sprint(text)), "error") {
					return newResult(item.Ticket, false, "failure from accums API",
						fmt.Sprintf("Error in operation outcome: %v", text))
				}
			}
		}
	}

	statusParts := []string{"success calling accums API"}

	amountCheckPassed := true
	for _, planBenefit := range asList(body["planBenefitsAndAccums"]) {
		info, ok := asMap(planBenefit)["planLevelBenefitInfo"].(map[string]any)
		if !ok {
			continue
		}

		if maxes, ok := info["benefitMaximums"].(map[string]any); ok {
			for _, benefitMax := range asList(maxes["benefitMaximum"]) {
				if !hasAmounts(asMap(benefitMax)) {
					amountCheckPassed = false
					break
				}
			}
		}

		if amountCheckPassed {
			if cost, ok := info["memberCost"].(map[string]any); ok {
				for _, component := range asList(cost["memberCostComponent"]) {
					if !hasAmounts(asMap(component)) {
						amountCheckPassed = false
						break
					}
				}
			}
		}

		if !amountCheckPassed {
			break
		}
	}
	if amountCheckPassed {
		statusParts = append(statusParts, "amount present in all segments")
	} else {
		statusParts = append(statusParts, "amount missing in any or all segment")
	}

	return newResult(item.Ticket,
		amountCheckPassed,
		strings.Join(statusParts, " | "),
		"Accums validation completed")
}

// fetchJSON runs the GET, enforces a 200 status, and decodes the body.
func (v *Validator) fetchJSON(ctx context.Context, item Item) (map[string]any, *Result) {
	resp, failure := v.fetch(ctx, item)
	if failure != nil {
		return nil, failure
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r := httpStatusResult(item.Ticket, resp.StatusCode)
		return nil, &r
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		r := newResult(item.Ticket, false, "Validation Error", err.Error())
		return nil, &r
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		r := newResult(item.Ticket, false, "Validation Error", "invalid JSON response: "+err.Error())
		return nil, &r
	}
	return body, nil
}

func httpStatusResult(ticket string, status int) Result {
	return newResult(ticket, false,
		fmt.Sprintf("HTTP %d", status),
		fmt.Sprintf("Received status code: %d", status))
}

// containsError mirrors the loose upstream check: any "error" substring
// anywhere in the stringified response marks it failed.
func containsError(body map[string]any) bool {
	return strings.Contains(strings.ToLower(fmt.Sprint(body)), "error")
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func hasAmounts(m map[string]any) bool {
	if m == nil {
		return false
	}
	_, hasRemaining := m["remainingAmount"]
	_, hasAmount := m["amount"]
	return hasRemaining && hasAmount
}

func parseDay(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("not a date string: %v", v)
	}
	return time.Parse("2006-01-02", s)
}
