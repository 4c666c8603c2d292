/*
Package knockknock is a deterministic dialogue engine for the knock-knock
protocol: a scripted, line-oriented exchange that opens with "Knock! Knock!",
walks through a setup and punchline, and either starts another entry or says
"Bye.".

The engine is pure. It consumes one line at a time and returns the line to
send back; hosts own the transport. The pkg/server package is the TCP host
used by the knockknock command.

# Usage

	eng, err := knockknock.New(knockknock.WithTable(content.Default()))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	out, _ := eng.Start(ctx) // "Knock! Knock!"
	for !eng.Done() {
		fmt.Println(out)
		out, err = eng.Reply(ctx, readLine())
		if err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(out) // "Bye."
*/
package knockknock
