package prompts

// PromptTemplates contains the static prompt text used across the application.

// System role definitions
const (
	// ScannerFormatterRole defines the primary AI role for all tasks
	ScannerFormatterRole = "You are Renata, an expert at restructuring Python trading-scanner scripts into the standardized EdgeDev template"
)

// ArchitectureRules states the mandatory EdgeDev structure. Every generated
// scanner must satisfy these regardless of task.
const ArchitectureRules = `MANDATORY EDGEDEV ARCHITECTURE:
1. Three-stage pipeline with exactly these function names:
   - fetch_data(client, tickers, start, end): all market-data retrieval happens here, in bulk
   - apply_filters(df, params): universe filtering and derived-column computation
   - detect_signals(df, params): signal detection on the filtered frame
2. run_scanner(client, tickers, start, end, params=PARAMS) orchestrates the three stages in order
3. All tunable values live in a module-level PARAMS dict; functions read parameters from it, never from hardcoded literals
4. Derived columns are computed BEFORE any row filtering that depends on them
5. Never reference data from days after the signal day (no shift(-1), no next-day columns)
6. FORBIDDEN: network calls inside per-row or per-ticker loops; fetch everything up front in fetch_data
7. Output only Python code. No markdown fences, no commentary, no reasoning tags`

// Task-specific instruction blocks
const (
	FormatInstructions = `TASK: Reformat the following scanner into the EdgeDev template.
Preserve every parameter value and parameter name exactly as written; move them
into the PARAMS dict without renaming or rounding. Preserve the scanner's
detection logic; only restructure it into the mandated stages.`

	BuildInstructions = `TASK: Design a new EdgeDev scanner satisfying the description below.
Choose sensible parameter defaults and name them following the conventions in
the reference example.`

	ModifyInstructions = `TASK: Apply the requested change to the previous scanner code below.
Keep everything else untouched, including parameter values the request does not
mention, and keep the EdgeDev structure intact.`
)

// CorrectiveHeader introduces the prior-issues section on retries.
const CorrectiveHeader = `YOUR PREVIOUS ATTEMPT HAD DEFECTS. Each defect below was found in code you
already produced. These are hard constraints: do not repeat any of them.`

// JSONOutputInstructions replaces the plain-code output rule when structured
// mode is enabled.
const JSONOutputInstructions = `Output a single JSON object and nothing else:
{"code": "<the complete Python scanner>", "notes": "<one-line summary of what you changed>"}`
