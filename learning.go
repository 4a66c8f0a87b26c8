package questionbank

// LearningNotes is the markdown shown on the learning notes page
const LearningNotes = `# Learning notes

Building this system deepened my understanding of Go:

1. Writing routes with the gin framework; handlers are easier to organise now.
2. Handling JSON and similar data, converting between formats with confidence.

I went back to the official documentation of the AI client libraries and models, and calling an
AI API from Go is much more familiar. On the front end I fixed the code step by step from the
errors printed in the console. The most memorable problem was a version incompatibility between
React 19 and Ant Design v5; downgrading React did not help, and the fix was in the
[Ant Design docs](https://ant.design/docs/react/v5-for-19).

What I still need to improve: routes could be grouped into handler functions to keep main small,
and I want to get better at splitting code into modules instead of putting everything into
main.go.

In short, I need to keep working on writing clean code, make more use of the debugger and
console output to track problems down, and go deeper into git, databases and other advanced
topics.
`
