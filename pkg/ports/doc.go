/*
Package ports defines the interfaces between the dialogue engine and its hosts.

Hosts such as the TCP session driver depend on Dialogue rather than on a
concrete engine, so alternative engines can be served by the same driver.
RunDialogueContract checks an implementation against the dialogue rules.
*/
package ports
