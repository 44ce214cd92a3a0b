package prompt

// Instruction templates used by the forms.
var (
	Rewrite = MustNew(`
Below is a draft text that may be poorly worded.
Your goal is to:
- Properly redact the draft text
- Convert the draft text to a specified tone
- Convert the draft text to a specified dialect

Here are some examples different Tones:
- Formal: Greetings! OpenAI has announced that Sam Altman is rejoining the company as its Chief Executive Officer. After a period of five days of conversations, discussions, and deliberations, the decision to bring back Altman, who had been previously dismissed, has been made. We are delighted to welcome Sam back to OpenAI.
- Informal: Hey everyone, it's been a wild week! We've got some exciting news to share - Sam Altman is back at OpenAI, taking up the role of chief executive. After a bunch of intense talks, debates, and convincing, Altman is making his triumphant return to the AI startup he co-founded.

Here are some examples of words in different dialects:
- American: French Fries, cotton candy, apartment, garbage, cookie, green thumb, parking lot, pants, windshield
- British: chips, candyfloss, flag, rubbish, biscuit, green fingers, car park, trousers, windscreen

Example Sentences from each dialect:
- American: Greetings! OpenAI has announced that Sam Altman is rejoining the company as its Chief Executive Officer. After a period of five days of conversations, discussions, and deliberations, the decision to bring back Altman, who had been previously dismissed, has been made. We are delighted to welcome Sam back to OpenAI.
- British: On Wednesday, OpenAI, the esteemed artificial intelligence start-up, announced that Sam Altman would be returning as its Chief Executive Officer. This decisive move follows five days of deliberation, discourse and persuasion, after Altman's abrupt departure from the company which he had co-established.

Please start the redaction with a warm introduction. Add the introduction if you need to.

Below is the draft text, tone, and dialect:
DRAFT: {draft}
TONE: {tone}
DIALECT: {dialect}

YOUR {dialect} RESPONSE:
`)

	BlogPost = MustNew(`
As experienced startup and venture capital writer,
generate a 400-word blog post about {topic}

Your response should be in this format:
First, print the blog post.
Then, sum the total number of words on it and print the result like this: This post has X words.
`)

	ReviewExtract = MustNew(`For the following text, extract the following information:

sentiment: Is the customer happy with the product?
Answer Positive if yes, Negative if not, Neutral if either of them, or Unknown if unknown.

delivery_days: How many days did it take for the product to arrive? If this information is not found, output No information about this.

price_perception: How does it feel the customer about the price?
Answer Expensive if the customer feels the product is expensive,
Cheap if the customer feels the product is cheap,
not, Neutral if either of them, or Unknown if unknown.

Format the output as bullet-points text with the following keys:
- Sentiment
- How long took it to deliver?
- How was the price perceived?

Input example:
This dress is pretty amazing. It arrived in two days, just in time for my wife's anniversary present. It is cheaper than the other dresses out there, but I think it is worth it for the extra features.

Output example:
- Sentiment: Positive
- How long took it to deliver? 2 days
- How was the price perceived? Cheap

text: {review}
`)

	// ChunkSummary is applied to every chunk, CombineSummary to the joined
	// chunk summaries. Both take {text}.
	ChunkSummary = MustNew("Write a concise summary of the following:\n\n\n\"{text}\"\n\n\nCONCISE SUMMARY:")

	CombineSummary = MustNew("Write a concise summary of the following:\n\n\n\"{text}\"\n\n\nCONCISE SUMMARY:")
)
