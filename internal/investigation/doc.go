// Package investigation runs the player's side of a case.
//
// A Session owns the detective's budget (time, public pressure, witness
// cooperation), the evidence collected so far, the open leads and the
// current hypothesis. Every action checks the budget, records a truth event,
// re-derives the projection and reveals unseen evidence of the action's type.
// Refused actions are results, not errors; errors are reserved for requests
// that name ids the case does not contain or carry malformed options.
//
// Interviews are stateful per subject. Each approach moves rapport,
// resistance and fatigue; a subject shuts down when rapport or stamina runs
// out, and an offender offered the theme that fits their motive can confess.
// Operations (warrant, stakeout, bait, raid) spend the same budget and are
// judged on the evidence packet they cite.
//
// A Session is not safe for concurrent use.
package investigation
