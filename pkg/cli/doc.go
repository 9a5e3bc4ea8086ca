/*
Package cli provides command-line utilities for the menugate command:
typed command errors, output formatting, and signal handling.

Output Formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

	ctx := cli.SetupSignalHandler()
	// ctx is cancelled on SIGINT/SIGTERM
*/
package cli
